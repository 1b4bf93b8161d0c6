package tincture

import (
	"context"
	"testing"

	"github.com/jward/tincture/internal/syntax"
)

// benchSource is a realistic C# file with types, members, control flow,
// attributes and a documentation code sample.
const benchSource = `using System;
using System.Collections.Generic;
using Col = System.Collections;

namespace Bench.Inventory
{
    public interface IStore
    {
        int Count { get; }
        void Put(string key, Item item);
    }

    public enum Grade { Low, Mid, High }

    [Serializable]
    public sealed class Item
    {
        public const int MaxQuantity = 100;
        public static readonly Item Empty = new Item("", 0);

        public Item(string name, int quantity)
        {
            Name = name;
            Quantity = quantity;
        }

        public string Name { get; }
        public int Quantity { get; private set; }

        /// <summary>Adds stock.</summary>
        /// <example><code><![CDATA[var n = item.Add(2);]]></code></example>
        public int Add(int amount)
        {
            if (amount <= 0)
            {
                throw new ArgumentOutOfRangeException(nameof(amount));
            }
            Quantity = Math.Min(MaxQuantity, Quantity + amount);
            return Quantity;
        }
    }

    public class MemoryStore : IStore
    {
        private readonly Dictionary<string, Item> items = new Dictionary<string, Item>();
        public event EventHandler Changed;

        public int Count => items.Count;

        public void Put(string key, Item item)
        {
            // TODO: reject duplicates
            lock (items)
            {
                items[key] = item;
            }
            Changed?.Invoke(this, EventArgs.Empty);
        }

        public Grade GradeOf(string key)
        {
            var item = items.TryGetValue(key, out var found) ? found : Item.Empty;
            switch (item.Quantity)
            {
                case 0:
                    return Grade.Low;
                default:
                    for (int i = 0; i < 3; i++)
                    {
                        if (i > 1) break;
                    }
                    return item.Quantity > 50 ? Grade.High : Grade.Mid;
            }
        }

        public static int Total(IEnumerable<Item> all)
        {
            int sum = 0;
            foreach (var it in all)
            {
                sum += it.Quantity;
            }
            using (var scope = new Scope())
            {
                try { sum += (int)scope.Weight; } finally { }
            }
            return sum;
        }
    }

    internal sealed class Scope : IDisposable
    {
        public double Weight => 1.0;
        public void Dispose() { }
    }
}
`

func BenchmarkClassify(b *testing.B) {
	e, err := New()
	if err != nil {
		b.Fatal(err)
	}
	defer e.Close()
	ctx := context.Background()

	f, err := e.OpenSource(ctx, "Bench.cs", []byte(benchSource))
	if err != nil {
		b.Fatal(err)
	}
	rng := syntax.NewSpan(0, len(benchSource))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if spans := f.Classify(ctx, rng); len(spans) == 0 {
			b.Fatal("no spans")
		}
	}
}

// BenchmarkClassifyViewport measures classification of a small window, the
// common case for an editor scrolling through a file.
func BenchmarkClassifyViewport(b *testing.B) {
	e, err := New()
	if err != nil {
		b.Fatal(err)
	}
	defer e.Close()
	ctx := context.Background()

	f, err := e.OpenSource(ctx, "Bench.cs", []byte(benchSource))
	if err != nil {
		b.Fatal(err)
	}
	rng := syntax.NewSpan(len(benchSource)/2, 400)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.Classify(ctx, rng)
	}
}

func BenchmarkOpenSource(b *testing.B) {
	e, err := New()
	if err != nil {
		b.Fatal(err)
	}
	defer e.Close()
	ctx := context.Background()
	src := []byte(benchSource)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.OpenSource(ctx, "Bench.cs", src); err != nil {
			b.Fatal(err)
		}
	}
}
